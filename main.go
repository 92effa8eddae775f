package main

import "github.com/TamilarasanG17/VT-Wallet/cmd"

func main() {
	cmd.Execute()
}
