// Package wikibase is a client-side toolkit for reading and editing
// structured knowledge-base entities through a Wikibase action API.
//
// The Client fetches entity documents and submits edit payloads. Edits are
// planned locally by the update package, which reconciles the last-known
// entity state against requested changes and produces a minimal payload:
// no-op changes are absorbed, duplicate aliases deduplicated, and an alias
// added to a language with no label is promoted to the label.
//
// Example usage:
//
//	client, err := wikibase.New(
//	    wikibase.WithUserAgent("my-bot/1.0"),
//	    wikibase.WithOAuthToken(os.Getenv("WIKIBASE_TOKEN")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := client.Entity(ctx, "Q42")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	u, err := update.New(doc,
//	    update.WithAliases(entity.NewTerm("en", "DNA")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !u.IsEmpty() {
//	    _, err = client.SubmitEdit(ctx, u, "add alias")
//	}
package wikibase
