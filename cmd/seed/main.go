package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/forumkit/forumkit/internal/client"
	"github.com/forumkit/forumkit/internal/model"
)

var threads = []struct {
	title   string
	creator string
	opener  string
	replies []string
}{
	{
		"Welcome to the board",
		"admin",
		"First thread. Say hello below.",
		[]string{"Hello!", "Glad to be here."},
	},
	{
		"Release planning",
		"maya",
		"Collecting items for the next release cut.",
		[]string{"Cursor pagination is done.", "Webhook signing landed yesterday."},
	},
	{
		"Ops runbook",
		"ops",
		"Pinning the on-call runbook here.",
		nil,
	},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "forumkit server URL")
	masterKey := flag.String("key", "dev-master-key", "master API key")
	flag.Parse()

	c := client.New(*baseURL, *masterKey)

	for _, t := range threads {
		thread, err := c.CreateThread(t.title, t.creator, t.opener)
		if err != nil {
			log.Fatalf("create thread %q: %v", t.title, err)
		}
		for _, reply := range t.replies {
			if _, err := c.CreatePost(thread.ID, t.creator, reply); err != nil {
				log.Fatalf("create post in %q: %v", t.title, err)
			}
		}
		if _, err := c.CreateDocument(thread.ID, t.title+" notes", "markdown", "# Notes\n"); err != nil {
			log.Fatalf("create document in %q: %v", t.title, err)
		}
		key, err := c.CreateAPIKey(thread.ID, "seed-reader", model.Permissions{Read: true})
		if err != nil {
			log.Fatalf("create key in %q: %v", t.title, err)
		}
		fmt.Printf("thread %d %q (read key %s)\n", thread.ID, t.title, key.APIKey)
	}
}
