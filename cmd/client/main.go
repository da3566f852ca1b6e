package main

import (
	"fmt"
	"os"
)

var client app

func main() {
	client.loadApp()
	if err := client.app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
