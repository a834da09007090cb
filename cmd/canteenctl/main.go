package main

import "github.com/prohmpiriya/canteen-storefront/internal/cli"

func main() {
	cli.InitAndExecute()
}
