package main

import "frameload-sync/cmd"

func main() {
	cmd.Execute()
}
