package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mgplatform/mgapi/internal/auth/app"
	"github.com/mgplatform/mgapi/pkg/cryptox"
)

func main() {
	genSecret := flag.Bool("gen-secret", false, "print a random JWT_SECRET_KEY suitable for HS512 and exit")
	flag.Parse()

	if *genSecret {
		secret, err := cryptox.GenerateSecret(cryptox.SecretSize512)
		if err != nil {
			log.Fatalf("failed to generate secret: %v", err)
		}
		fmt.Println(secret)
		return
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
