package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestLayoutRendersProvidedContent(t *testing.T) {
	nav := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<nav>links</nav>"))
		return err
	})
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<section>content</section>"))
		return err
	})

	var buf bytes.Buffer
	if err := Layout("Menu & Drinks", nav, content, false).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Menu &amp; Drinks</title>") {
		t.Fatalf("expected escaped document title: %s", out)
	}
	if !strings.Contains(out, "links") || !strings.Contains(out, "content") {
		t.Fatalf("expected nav and content sections in output: %s", out)
	}
	if !strings.Contains(out, `href="/assets/styles.css"`) {
		t.Fatalf("expected stylesheet link: %s", out)
	}
}

func TestLayoutWithoutNav(t *testing.T) {
	var buf bytes.Buffer
	if err := Layout("Login", nil, nil, true).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	if strings.Contains(buf.String(), "site-header") {
		t.Fatalf("expected no header without nav: %s", buf.String())
	}
}

func TestAdminNavHasLogout(t *testing.T) {
	var buf bytes.Buffer
	if err := AdminNav().Render(context.Background(), &buf); err != nil {
		t.Fatalf("render nav: %v", err)
	}
	if !strings.Contains(buf.String(), `action="/admin/logout"`) {
		t.Fatalf("expected logout form: %s", buf.String())
	}
}

func TestBodyWrapperClassReflectsAdminState(t *testing.T) {
	if bodyWrapperClass(true) == bodyWrapperClass(false) {
		t.Fatal("expected different body wrapper class for admin pages")
	}
	if mainClass(true) == mainClass(false) {
		t.Fatal("expected different main class for admin pages")
	}
}
