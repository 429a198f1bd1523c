package main

import "github.com/workhub-ai/workhub-agent/internal/cmd"

func main() {
	cmd.Execute()
}
