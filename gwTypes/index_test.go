package gwTypes

import (
	"encoding/json"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{s: StatusSuccess, want: "success"},
		{s: StatusUnauthorized, want: "unauthorized"},
		{s: StatusFailure, want: "failure"},
		{s: Status(42), want: "failure"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}

	var zero Status
	if zero != StatusFailure {
		t.Errorf("zero status = %v, want failure", zero)
	}
}

func TestResultJson(t *testing.T) {
	res := Result[string]{Status: StatusUnauthorized, Payload: "key", Message: "m"}

	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"status":"unauthorized","payload":"key","message":"m"}`
	if string(raw) != want {
		t.Errorf("json = %s, want %s", raw, want)
	}

	if res.Ok() {
		t.Errorf("Ok() = true for unauthorized result")
	}
}
