package llm

import (
	"context"
	"errors"
	"testing"
)

type stubClient struct {
	reply string
	err   error
	calls int
}

func (stub *stubClient) Generate(context.Context, string) (string, error) {
	stub.calls++
	return stub.reply, stub.err
}

type sample struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func fallbackSample(raw string, err error) sample {
	return sample{Name: "fallback:" + raw}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "bare object", input: `{"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "surrounding prose", input: "Sure! Here it is:\n{\"a\":1}\nHope this helps {x}", want: `{"a":1}`, wantOK: true},
		{name: "nested", input: `x {"a":{"b":[1,{"c":2}]}} y`, want: `{"a":{"b":[1,{"c":2}]}}`, wantOK: true},
		{name: "braces in strings", input: `{"text":"use } and { freely","n":"\"}"}`, want: `{"text":"use } and { freely","n":"\"}"}`, wantOK: true},
		{name: "markdown fence", input: "```json\n{\"a\":[]}\n```", want: `{"a":[]}`, wantOK: true},
		{name: "unbalanced", input: `{"a":1`, wantOK: false},
		{name: "no object", input: "nothing here", wantOK: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, ok := FirstJSONObject(testCase.input)
			if ok != testCase.wantOK {
				t.Fatalf("expected ok=%t, got %t (%q)", testCase.wantOK, ok, got)
			}
			if got != testCase.want {
				t.Fatalf("expected %q, got %q", testCase.want, got)
			}
		})
	}
}

func TestGenerateJSONParsesEmbeddedObject(t *testing.T) {
	client := &stubClient{reply: "Result:\n{\"name\":\"ok\",\"items\":[\"a\",\"b\"]}\nThanks"}

	value, outcome := GenerateJSON(context.Background(), client, "prompt", fallbackSample)
	if outcome != OutcomeParsed {
		t.Fatalf("expected parsed outcome, got %s", outcome)
	}
	if value.Name != "ok" || len(value.Items) != 2 {
		t.Fatalf("unexpected value %#v", value)
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one call, got %d", client.calls)
	}
}

func TestGenerateJSONFallsBackOnParseFailure(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "no json", reply: "I cannot answer that"},
		{name: "invalid json", reply: `{"name": 12}`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			client := &stubClient{reply: testCase.reply}
			value, outcome := GenerateJSON(context.Background(), client, "prompt", fallbackSample)
			if outcome != OutcomeParseFallback {
				t.Fatalf("expected parse fallback, got %s", outcome)
			}
			if value.Name != "fallback:"+testCase.reply {
				t.Fatalf("expected fallback to receive raw reply, got %q", value.Name)
			}
		})
	}
}

func TestGenerateJSONFallsBackOnCallFailure(t *testing.T) {
	client := &stubClient{err: errors.New("quota exceeded")}

	value, outcome := GenerateJSON(context.Background(), client, "prompt", fallbackSample)
	if outcome != OutcomeCallFallback {
		t.Fatalf("expected call fallback, got %s", outcome)
	}
	if value.Name != "fallback:" {
		t.Fatalf("expected empty raw text on call failure, got %q", value.Name)
	}
	if client.calls != 1 {
		t.Fatalf("expected no retries, got %d calls", client.calls)
	}
}

func TestGenerateJSONWithNilClient(t *testing.T) {
	var gotErr error
	_, outcome := GenerateJSON(context.Background(), nil, "prompt", func(raw string, err error) sample {
		gotErr = err
		return sample{}
	})
	if outcome != OutcomeCallFallback {
		t.Fatalf("expected call fallback, got %s", outcome)
	}
	if !errors.Is(gotErr, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", gotErr)
	}
}
