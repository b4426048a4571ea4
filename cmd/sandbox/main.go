/*
Copyright © 2023 Alba Canete <albacanete>
*/
package main

import "github.com/albacanete/cosmos-sandbox/cmd/sandbox/cmd"

func main() {
	cmd.Execute()
}
