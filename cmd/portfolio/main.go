package main

import "portfolio-cms/cmd/portfolio/cmd"

func main() {
	cmd.Execute()
}
