package tracker

import (
	"context"
	"strings"
	"testing"
)

func TestMessageLinkSupergroup(t *testing.T) {
	link := MessageLink(-1001918436153, 42, "")
	want := "https://t.me/c/1918436153/42"
	if link != want {
		t.Errorf("got %q, want %q", link, want)
	}
}

func TestMessageLinkPublicUsername(t *testing.T) {
	link := MessageLink(123456, 7, "some_channel")
	want := "https://t.me/some_channel/7"
	if link != want {
		t.Errorf("got %q, want %q", link, want)
	}
}

func TestMessageLinkUnavailable(t *testing.T) {
	if link := MessageLink(123456, 7, ""); link != "" {
		t.Errorf("expected empty link, got %q", link)
	}
}

func TestBuildContextResolvesTitle(t *testing.T) {
	client := newFakeClient()
	client.addEntity("@news", &Entity{ID: -1001918436153, Title: "Новости", Username: "news", Kind: EntityChannel})

	ev := MessageEvent{ChatID: -1001918436153, MessageID: 42, Text: "Big SALE today"}
	block := BuildContext(context.Background(), client, ev)

	if block.SourceTitle != "Новости" {
		t.Errorf("unexpected source title: %q", block.SourceTitle)
	}
	if block.Link != "https://t.me/c/1918436153/42" {
		t.Errorf("unexpected link: %q", block.Link)
	}
	if block.Text != "Big SALE today" {
		t.Errorf("text must be carried verbatim, got %q", block.Text)
	}
}

func TestBuildContextFallsBackOnResolveFailure(t *testing.T) {
	client := newFakeClient()

	block := BuildContext(context.Background(), client, MessageEvent{ChatID: 555, MessageID: 1, Text: "hi"})

	if block.SourceTitle != unknownSourceTitle {
		t.Errorf("expected fallback title, got %q", block.SourceTitle)
	}
	if block.Link != "" {
		t.Errorf("expected no link, got %q", block.Link)
	}
}

func TestRenderContainsAllParts(t *testing.T) {
	block := ContextBlock{SourceTitle: "Чат", Link: "https://t.me/c/1/2", Text: "привет"}
	rendered := block.Render()

	for _, part := range []string{"Чат", "https://t.me/c/1/2", "привет", "Источник"} {
		if !strings.Contains(rendered, part) {
			t.Errorf("rendered block missing %q:\n%s", part, rendered)
		}
	}
}

func TestRenderWithoutLink(t *testing.T) {
	rendered := ContextBlock{SourceTitle: "Чат", Text: "x"}.Render()
	if !strings.Contains(rendered, linkUnavailable) {
		t.Errorf("expected link placeholder in:\n%s", rendered)
	}
}

func TestDeliverSendsThenForwards(t *testing.T) {
	client := newFakeClient()
	block := ContextBlock{SourceTitle: "Чат", Text: "msg"}
	ref := MessageRef{ChatID: -100, MessageID: 42}

	if err := Deliver(context.Background(), client, -200, block, ref); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if len(client.sentTexts) != 1 {
		t.Fatalf("expected 1 context message, got %d", len(client.sentTexts))
	}
	if len(client.forwarded) != 1 || client.forwarded[0] != ref {
		t.Fatalf("expected original message forwarded, got %v", client.forwarded)
	}
}

func TestDeliverSkipsForwardWhenSendFails(t *testing.T) {
	client := newFakeClient()
	client.sendErr = context.DeadlineExceeded

	err := Deliver(context.Background(), client, -200, ContextBlock{Text: "x"}, MessageRef{ChatID: -100, MessageID: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(client.forwarded) != 0 {
		t.Fatalf("forward must not be attempted after send failure, got %d", len(client.forwarded))
	}
}

func TestDeliverReportsForwardFailure(t *testing.T) {
	client := newFakeClient()
	client.forwardErr = context.DeadlineExceeded

	err := Deliver(context.Background(), client, -200, ContextBlock{Text: "x"}, MessageRef{ChatID: -100, MessageID: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(client.sentTexts) != 1 {
		t.Fatalf("context message should have been sent, got %d", len(client.sentTexts))
	}
}
