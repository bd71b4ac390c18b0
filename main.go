package main

import "github.com/strideapp/stride-cli/cmd/stride"

func main() {
	stride.Execute()
}
