package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestReceived(t *testing.T) {
	msg, err := RequestReceived(RequestReceivedData{
		FullName:    "Jane Doe",
		Email:       "jane@x.com",
		Phone:       "555-123-4567",
		Address:     "Apt 2",
		Description: "Leaky faucet",
		Message:     "Started yesterday",
		ImageURL:    "https://blobs.example/problem.jpg",
	})
	require.NoError(t, err)

	assert.Contains(t, msg.Subject, "Jane Doe")
	assert.Contains(t, msg.HTMLBody, "Leaky faucet")
	assert.Contains(t, msg.HTMLBody, "555-123-4567")
	assert.Contains(t, msg.HTMLBody, "problem.jpg")
	assert.Contains(t, msg.PlainBody, "Apt 2")
}

func TestRequestReceived_EscapesHTML(t *testing.T) {
	msg, err := RequestReceived(RequestReceivedData{
		FullName:    "<script>alert(1)</script>",
		Email:       "x@x.com",
		Address:     "Apt 2",
		Description: "ok",
	})
	require.NoError(t, err)
	assert.NotContains(t, msg.HTMLBody, "<script>")
}

func TestStatusChanged(t *testing.T) {
	msg, err := StatusChanged(StatusChangedData{
		FullName:   "Jane Doe",
		Address:    "Apt 2",
		OldStatus:  "pending",
		NewStatus:  "working",
		AdminNotes: "Plumber scheduled",
	})
	require.NoError(t, err)

	assert.Contains(t, msg.Subject, "working")
	assert.Contains(t, msg.HTMLBody, "pending")
	assert.Contains(t, msg.HTMLBody, "working")
	assert.Contains(t, msg.HTMLBody, "Plumber scheduled")
	assert.NotContains(t, msg.HTMLBody, "finished work") // no image URL given
}

func TestPasswordReset(t *testing.T) {
	msg, err := PasswordReset("Jane", "tok-123")
	require.NoError(t, err)

	assert.Contains(t, msg.HTMLBody, "tok-123")
	assert.Contains(t, msg.PlainBody, "tok-123")
}
