package main

import "noous-backend/cmd"

func main() {
	cmd.Run()
}
