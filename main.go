package main

import "github.com/frahmantamala/asset-custody/cmd"

func main() {
	cmd.Execute()
}
