package main

import (
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/lk2023060901/blitz/internal/cli"
	blog "github.com/lk2023060901/blitz/pkg/log"
)

func main() {
	if undo, err := maxprocs.Set(maxprocs.Logger(blog.S().Debugf)); err == nil {
		defer undo()
	}
	cli.Execute()
}
