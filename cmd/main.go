package main

import (
	"flag"
	"fmt"

	"medical-admin-dashboard/cmd/bootstrap"
	"medical-admin-dashboard/config"

	"github.com/sirupsen/logrus"
)

func main() {
	adminToken := flag.String("admin-token", "", "print an admin access token for the given subject and exit")
	flag.Parse()

	if *adminToken != "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}
		token, err := bootstrap.MintAdminToken(cfg.JWT, *adminToken)
		if err != nil {
			logrus.Fatalf("Failed to mint admin token: %v", err)
		}
		fmt.Println(token)
		return
	}

	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	app.Run()
}
