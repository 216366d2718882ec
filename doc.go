/*
Package bbsdemo is an interactive client for a remote Blum Blum Shub (BBS)
pseudorandom generator service.

The generator itself runs elsewhere. This module validates the (p, q, seed)
parameters, drives each remote call through a uniform request lifecycle
with transient error feedback, and consumes the results in three demos: a
text stream cipher, a roulette wheel and a card deck.

# Architecture

The layout is hexagonal. pkg/domain holds the shared types, pkg/ports the
interfaces the core depends on (Generator, KeyValueStore, Clipboard,
ThemeApplier), and pkg/adapters the implementations (HTTP generator
client, file, memory and redis stores). The workflows live in pkg/cipher,
pkg/wheel and pkg/deck and share pkg/lifecycle, pkg/feedback and
pkg/settings.

# Usage

	ctx := context.Background()
	client, err := bbsdemo.New(ctx, "http://localhost:8080",
		bbsdemo.WithStore(file.New("~/.config/bbsdemo")),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	res, err := client.Encrypt(ctx, "Hello")
	if err != nil {
		// The message was also published on client.Encryption.Feedback().
		log.Fatal(err)
	}
	fmt.Println(res.Text)

The cmd/bbsdemo binary exposes the same operations as cobra subcommands and
as a bubbletea terminal UI.
*/
package bbsdemo
