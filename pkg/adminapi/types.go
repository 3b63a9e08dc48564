/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package adminapi

// Kind names an admin API entity collection.
type Kind string

const (
	KindService Kind = "services"
	KindRoute   Kind = "routes"
)

// DeleteOutcome describes what a delete by name or ID achieved.
type DeleteOutcome int

const (
	// OutcomeNeedsFallback means the deletion could not be confirmed and
	// the caller should locate the entity another way.
	OutcomeNeedsFallback DeleteOutcome = iota

	// OutcomeDeleted means the admin API acknowledged the deletion.
	OutcomeDeleted

	// OutcomeNotFound means there was nothing to delete.
	OutcomeNotFound
)

func (o DeleteOutcome) String() string {
	switch o {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeNeedsFallback:
		return "needs-fallback"
	}

	return "unknown"
}

// listResponse is the paginated envelope returned by collection endpoints.
type listResponse[T any] struct {
	Data   []T     `json:"data"`
	Next   *string `json:"next"`
	Offset string  `json:"offset,omitempty"`
}
