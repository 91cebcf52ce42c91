// README: One-shot CLI that runs messages through the chat pipeline against the sample accounts.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"carebot/internal/ai"
	"carebot/internal/modules/account"
	"carebot/internal/modules/chat"
	"carebot/internal/modules/pricing"
	"carebot/internal/types"
)

func main() {
	accountID := flag.String("account", "user1", "sample account id (user1 or user2)")
	message := flag.String("message", "", "message to send; reads lines from stdin when empty")
	timeout := flag.Duration("timeout", 20*time.Second, "per-message timeout")
	flag.Parse()

	_ = godotenv.Load()
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	log := logrus.NewEntry(logger)

	ctx := context.Background()
	catalog := pricing.NewService(nil)
	accounts := account.NewService(account.NewMemoryStore(account.SampleAccounts()...))
	deps := chat.Deps{
		Accounts: accounts,
		Catalog:  catalog,
		Sessions: chat.NewMemorySessionStore(),
		Log:      log,
	}

	// Without a key only confirmations (which never reach the generator) work.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		provider, err := ai.NewGeminiProvider(ctx, key, os.Getenv("CAREBOT_GEMINI_MODEL"))
		if err != nil {
			log.WithError(err).Fatal("init gemini")
		}
		defer provider.Close()
		deps.Generator = provider
	} else {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY not set; only order confirmations will be answered")
	}
	svc := chat.NewService(deps)

	fmt.Printf("Bot: %s\n", chat.Greeting)
	send := func(text string) {
		fmt.Printf("User: %s\n", text)
		msgCtx, cancel := context.WithTimeout(ctx, *timeout)
		defer cancel()
		reply, err := svc.Handle(msgCtx, chat.Request{Message: text, AccountID: types.ID(*accountID)})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Bot: %s\n", reply.Reply)
		if reply.OrderPlaced {
			fmt.Printf("Order: %s (%s, %s)\n", reply.OrderID, reply.Product, reply.Plan)
		}
	}

	if *message != "" {
		send(*message)
		return
	}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			send(text)
		}
	}
}
