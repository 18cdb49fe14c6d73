package main

import (
	"github.com/keleris32/relay/internal/cli"
)

func main() {
	cli.Execute()
}
