// internal/relationship/setops.go
package relationship

import (
	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/google/uuid"
)

// Every helper here returns a new slice and leaves its input untouched.
// Applying any of them twice gives the same result as applying it once.

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// addID returns ids with id appended if it is not already present.
func addID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids)+1)
	out = append(out, ids...)
	if !containsID(ids, id) {
		out = append(out, id)
	}
	return out
}

// removeID returns ids without any occurrence of id.
func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func hasRequestFrom(reqs []models.PendingRequest, from uuid.UUID) bool {
	for _, pr := range reqs {
		if pr.From == from && pr.Status == models.StatusPending {
			return true
		}
	}
	return false
}

// withoutRequestsFrom drops every request sent by from, whatever its status.
func withoutRequestsFrom(reqs []models.PendingRequest, from uuid.UUID) []models.PendingRequest {
	out := make([]models.PendingRequest, 0, len(reqs))
	for _, pr := range reqs {
		if pr.From != from {
			out = append(out, pr)
		}
	}
	return out
}

// withRequest appends pr unless a pending request from the same sender exists.
func withRequest(reqs []models.PendingRequest, pr models.PendingRequest) []models.PendingRequest {
	out := make([]models.PendingRequest, 0, len(reqs)+1)
	out = append(out, reqs...)
	if !hasRequestFrom(reqs, pr.From) {
		out = append(out, pr)
	}
	return out
}

func requesterIDs(reqs []models.PendingRequest) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, pr := range reqs {
		ids = append(ids, pr.From)
	}
	return ids
}
