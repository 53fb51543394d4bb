package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fieldops/fieldops-pos/pkg/auth"
	"github.com/fieldops/fieldops-pos/pkg/config"
	"github.com/fieldops/fieldops-pos/pkg/enums"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// token mints an operator access token for a terminal. Only the JWT settings are
// read from the environment so it can run on a workstation without ERP or database access.
func main() {
	_ = godotenv.Load()

	operator := flag.String("operator", "", "operator id (token subject)")
	terminal := flag.String("terminal", "", "terminal id the token is bound to")
	role := flag.String("role", string(enums.OperatorRoleSalesRep), "operator role: sales_rep|cashier|supervisor")
	ttl := flag.Int("ttl", 0, "token lifetime in minutes; 0 keeps FIELDOPS_JWT_EXPIRATION_MINUTES")
	flag.Parse()

	var jwtCfg config.JWTConfig
	if err := envconfig.Process(config.EnvPrefix, &jwtCfg); err != nil {
		fail(fmt.Sprintf("loading jwt config: %v", err))
	}
	if *ttl > 0 {
		jwtCfg.ExpirationMinutes = *ttl
	}

	parsedRole, err := enums.ParseOperatorRole(*role)
	if err != nil {
		fail(err.Error())
	}

	token, err := auth.MintAccessToken(jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		OperatorID: *operator,
		TerminalID: *terminal,
		Role:       parsedRole,
	})
	if err != nil {
		fail(fmt.Sprintf("minting token: %v", err))
	}
	fmt.Println(token)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
