package main

import (
	"log"
	"os"

	"github.com/manifestkube/declctl/cmd"
	redisclient "github.com/manifestkube/declctl/redis"
	"github.com/manifestkube/declctl/server"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "-mode" {
		mode := "server"
		if len(args) > 1 {
			mode = args[1]
		}

		switch mode {
		case "server":
			// The store lives in Redis; connect before serving
			redisclient.InitRedis()

			apiServer := server.NewAPIServer(os.Getenv("API_PORT"))
			apiServer.Start()

		case "cli":
			// Remove the -mode cli arguments before passing to cobra
			os.Args = append(os.Args[:1], os.Args[3:]...)
			if err := cmd.Execute(); err != nil {
				log.Fatalf("❌ Error executing CLI command: %v", err)
			}

		default:
			log.Fatalf("❌ Invalid mode: %s. Must be 'server' or 'cli'", mode)
		}
		return
	}

	// If no mode specified, assume it's a CLI command
	if err := cmd.Execute(); err != nil {
		log.Fatalf("❌ Error executing CLI command: %v", err)
	}
}
