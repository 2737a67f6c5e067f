package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"medbot/internal/config"
	"medbot/internal/oauth"
	"medbot/internal/server"
	"medbot/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		fs := flag.NewFlagSet("serve", flag.ExitOnError)
		addr := fs.String("addr", ":8000", "listen address")
		_ = fs.Parse(os.Args[2:])
		if err := server.Run(*addr); err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	case "oauth":
		if err := config.LoadAndApply(); err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		a, err := oauth.NewFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := a.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "oauth error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Println(version.String())
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("medbot - medical pre-consultation backend")
	fmt.Println("usage:")
	fmt.Println("  medbot serve [--addr :8000]")
	fmt.Println("  medbot oauth")
	fmt.Println("  medbot version")
}
