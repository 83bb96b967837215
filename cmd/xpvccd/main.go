// Command xpvccd runs the xpvcc daemon with the default configuration file.
package main

import (
	"context"
	"log"
	"os"

	"xpvcc/internal/config"
	"xpvcc/internal/daemonrun"
)

func main() {
	cfg, _, _, err := config.Load(os.Getenv("XPVCC_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err != nil {
		log.Fatalf("xpvccd: %v", err)
	}
}
