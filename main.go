package main

import "github.com/llehouerou/recordmachine/internal/cli"

func main() {
	cli.Execute()
}
