package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/dom/hops-games/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertOwners verifies the owners of a game, in join order
func AssertOwners(t *testing.T, game *domain.Game, owners ...string) {
	t.Helper()
	require.NotNil(t, game)
	assert.Equal(t, owners, game.Owners(), "unexpected owners")
	assert.LessOrEqual(t, len(game.Owners()), domain.MaxOwners, "too many owners")
}

// AssertPublishedOn verifies a game is published on date
func AssertPublishedOn(t *testing.T, game *domain.Game, date time.Time) {
	t.Helper()
	require.NotNil(t, game)
	assert.Equal(t, domain.GameStatusPublished, game.Status, "game %s not published", game.ID)
	require.NotNil(t, game.PublishDate, "game %s has no publish date", game.ID)
	assert.True(t, date.Equal(*game.PublishDate), "game %s published on %s, want %s", game.ID, game.PublishDate.UTC(), date)
	require.NotNil(t, game.PublishMonth)
	assert.Equal(t, domain.PublishMonthFor(date), *game.PublishMonth)
}
