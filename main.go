package main

import "boardgame-sync/cmd"

func main() {
	cmd.Execute()
}
