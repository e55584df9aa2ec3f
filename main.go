package main

import (
	"github.com/cloudpeel/wafsync/cmd"
)

func main() {
	cmd.Execute()
}
