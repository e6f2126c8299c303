package main

import (
	cmd "github.com/getprecis/precis/cmd/precis"
	"github.com/getprecis/precis/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting precis")
	cmd.Execute()
}
