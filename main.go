package main

import "github.com/Rorical/RoriTutor/cmd"

func main() {
	cmd.Execute()
}
