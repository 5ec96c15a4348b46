package main

import (
	cmd "siteharvest/internal/cli"
)

func main() {
	cmd.Execute()
}
