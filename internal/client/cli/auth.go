package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// getSimpleText and getToken are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getToken = GetToken

// Login prompts for a backend API token (read without echo) and stores it
// in the local metadata store. The token rides along as a bearer header on
// backend calls; no round trip happens here.
func (a *App) Login(ctx context.Context) error {
	token, err := getToken(os.Stdout)
	if err != nil {
		return err
	}
	if len(token) == 0 {
		log.Println("empty token, nothing stored")
		return nil
	}

	if err := a.tokens.Save(ctx, string(token)); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println("Token stored")
	return nil
}

// Logout removes the stored token. Subsequent uploads run anonymously.
func (a *App) Logout(ctx context.Context) error {
	if err := a.tokens.Clear(ctx); err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println("Logged out")
	return nil
}
