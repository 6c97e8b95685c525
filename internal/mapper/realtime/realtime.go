package realtime

import (
	"sort"

	"github.com/calder-ai/relaycore/internal/mapper"
)

// MapSession folds a captured session event log into an ordered transcript.
// Events the mapper cannot interpret are dropped, never failed on, so one
// malformed frame does not cost the whole transcript.
//
// The final sort interleaves client- and target-origin messages, which
// otherwise arrive on independent timelines. The sort is stable: messages
// with equal keys keep their emission order.
func MapSession(events []Event) []mapper.Message {
	if len(events) == 0 {
		return nil
	}

	grouped := groupAudio(events)
	acc := newAccumulator(grouped)

	var messages []mapper.Message
	for _, ev := range grouped {
		if msg := acc.reduce(ev); msg != nil {
			messages = append(messages, *msg)
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SortKey().Before(messages[j].SortKey())
	})

	return messages
}

// Transcript is a mapped session split by direction, plus the interleaved
// view the rendering layer consumes.
type Transcript struct {
	Request  []mapper.Message `json:"request"`
	Response []mapper.Message `json:"response"`
	All      []mapper.Message `json:"all"`
}

// MapSessionTranscript maps the request- and response-side event logs of a
// recorded session independently and concatenates the results.
func MapSessionTranscript(request, response []Event) Transcript {
	req := MapSession(request)
	resp := MapSession(response)

	all := make([]mapper.Message, 0, len(req)+len(resp))
	all = append(all, req...)
	all = append(all, resp...)

	return Transcript{Request: req, Response: resp, All: all}
}
