package main

import "github.com/meysamhadeli/wsengine/cmd"

func main() {
	cmd.Execute()
}
