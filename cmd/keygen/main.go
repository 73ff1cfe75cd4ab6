// Generates a new Solana wallet and writes it to an encrypted keystore
// file. The address and its QR code are stored in the clear; the private
// key is scrypt+AES-GCM encrypted with the prompted password.
// Usage: go run ./cmd/keygen -out bot.wallet
package main

import (
	"flag"
	"fmt"
	"os"

	"solana-copybot/internal/wallet"
)

func main() {
	out := flag.String("out", "bot.wallet", "keystore file to create")
	flag.Parse()

	password, err := wallet.PromptPassword("Enter new wallet password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(password)

	confirm, err := wallet.PromptPassword("Confirm wallet password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(confirm)

	if string(password) != string(confirm) {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	w := wallet.Generate()
	defer w.Zero()

	if err := wallet.Save(*out, w, password); err != nil {
		fmt.Fprintln(os.Stderr, "failed to save keystore:", err)
		os.Exit(1)
	}

	fmt.Printf("wallet created: %s\n", w.PublicKey())
	fmt.Printf("keystore written to %s\n", *out)
}
