package transport

import (
	"testing"

	"github.com/fastygo/taskflow/domain"
)

func TestTaskRequestFields(t *testing.T) {
	req := TaskRequest{Title: "Ship", Priority: " High ", Category: "Work", DueDate: "2024-02-29"}
	fields, err := req.Fields()
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if fields.Priority != domain.PriorityHigh {
		t.Errorf("priority = %q", fields.Priority)
	}
	if fields.DueDate == nil || fields.DueDate.String() != "2024-02-29" {
		t.Errorf("due date = %v", fields.DueDate)
	}

	if fields, _ := (TaskRequest{Title: "No date"}).Fields(); fields.DueDate != nil {
		t.Error("empty dueDate should leave the date unset")
	}
}

func TestTaskRequestRejectsBadDate(t *testing.T) {
	_, err := TaskRequest{Title: "x", DueDate: "2024-02-30"}.Fields()
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("err = %v, want INVALID", err)
	}
}

func TestEnvelopeString(t *testing.T) {
	got := NewError("NOT_FOUND", "task not found", nil).String()
	want := `{"status":"error","code":"NOT_FOUND","error":"task not found"}`
	if got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
