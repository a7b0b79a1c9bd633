package api_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/tgienger/todo/internal/api"
	"github.com/tgienger/todo/internal/devserver"
	"github.com/tgienger/todo/internal/models"
)

// startServer runs handler on an in-memory listener and returns a client wired to it.
func startServer(t *testing.T, handler fasthttp.RequestHandler) *api.Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = ln.Close()
	})

	hc := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
	client, err := api.New("http://todo.test/todo", api.WithHTTPClient(hc), api.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func newDevClient(t *testing.T, seed ...models.Task) *api.Client {
	t.Helper()
	srv := devserver.New("/todo", nil)
	srv.Seed(seed...)
	return startServer(t, srv.Handler())
}

func TestNewRejectsBadScheme(t *testing.T) {
	if _, err := api.New("ftp://example.com/todo"); err == nil {
		t.Fatal("expected error for ftp scheme")
	}
	c, err := api.New("http://localhost:3000/todo/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != "http://localhost:3000/todo" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", c.BaseURL())
	}
}

func TestClientRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	client := newDevClient(t, models.Task{ID: "1", Title: "Seeded", CreatedAt: created})
	ctx := context.Background()

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "1" || !tasks[0].CreatedAt.Equal(created) {
		t.Fatalf("ListTasks = %+v", tasks)
	}

	task, err := client.CreateTask(ctx, models.NewTask{Title: "Buy milk", Description: "2 liters"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID == "" || task.Title != "Buy milk" || task.Done {
		t.Fatalf("CreateTask = %+v", task)
	}

	updated, err := client.UpdateTask(ctx, task.ID, models.DonePatch(true))
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !updated.Done || updated.Title != "Buy milk" || updated.Description != "2 liters" {
		t.Fatalf("UpdateTask = %+v", updated)
	}

	edited, err := client.UpdateTask(ctx, task.ID, models.EditPatch("Buy oat milk", ""))
	if err != nil {
		t.Fatalf("UpdateTask edit: %v", err)
	}
	if edited.Title != "Buy oat milk" || edited.Description != "" || !edited.Done {
		t.Fatalf("edit = %+v", edited)
	}

	if err := client.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	tasks, err = client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d after delete, want 1", len(tasks))
	}
}

func TestClientNotFound(t *testing.T) {
	client := newDevClient(t)

	err := client.DeleteTask(context.Background(), "missing")
	if !api.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("DeleteTask err = %v, want 404", err)
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Op != api.OpDelete {
		t.Fatalf("err = %#v, want *api.Error with op delete", err)
	}

	_, err = client.UpdateTask(context.Background(), "missing", models.DonePatch(true))
	if !api.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("UpdateTask err = %v, want 404", err)
	}
}

func TestClientRejectsBlankTitle(t *testing.T) {
	client := newDevClient(t)

	_, err := client.CreateTask(context.Background(), models.NewTask{Title: "  "})
	if !api.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("CreateTask err = %v, want 400", err)
	}
}

func TestClientInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"object instead of array", `{"id":"1"}`},
		{"null body", `null`},
		{"missing title", `[{"id":"1","done":false,"createdAt":"2024-01-01T00:00:00Z"}]`},
		{"bad date", `[{"id":"1","title":"x","done":false,"createdAt":"yesterday"}]`},
		{"done not bool", `[{"id":"1","title":"x","done":"no","createdAt":"2024-01-01T00:00:00Z"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := startServer(t, func(ctx *fasthttp.RequestCtx) {
				ctx.SetContentType("application/json")
				ctx.SetBodyString(tt.body)
			})
			_, err := client.ListTasks(context.Background())
			if !errors.Is(err, api.ErrInvalidPayload) {
				t.Fatalf("err = %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestClientAcceptsNullDescription(t *testing.T) {
	client := startServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`[{"id":"7","title":"x","description":null,"done":true,"createdAt":"2024-01-01T00:00:00Z"}]`)
	})

	tasks, err := client.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Description != "" || !tasks[0].Done {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestClientCanceledContext(t *testing.T) {
	client := newDevClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListTasks(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestClientSendsRequestID(t *testing.T) {
	seen := make(chan string, 1)
	client := startServer(t, func(ctx *fasthttp.RequestCtx) {
		seen <- string(ctx.Request.Header.Peek("X-Request-ID"))
		ctx.SetStatusCode(http.StatusNoContent)
	})

	if err := client.DeleteTask(context.Background(), "1"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if id := <-seen; id == "" {
		t.Fatal("expected X-Request-ID header")
	}
}
