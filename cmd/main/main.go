package main

import (
	"os"
	"runtime"
)

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
