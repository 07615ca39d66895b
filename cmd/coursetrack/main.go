package main

import (
	"coursetrack/internal/di"
	"coursetrack/internal/structures"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config/coursetrack.yml", "path to the YAML config file")
	pflag.BoolVarP(&flags.DebugMode, "debug", "d", false, "also log to the console")
	pflag.StringVar(&flags.RestoreBackup, "restore", "", "replace the course store with this backup before serving")
	pflag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "coursetrack: %s\n", err)
		os.Exit(1)
	}
}
