// Package intent answers Indonesian catalogue questions with a closed set of
// intents: count businesses, list businesses, or describe one by name.
// Anything else is out of scope and gets a help menu instead of a guess.
package intent

// Intent is the classified purpose of a chat message.
type Intent int

const (
	IntentOutOfScope Intent = iota
	IntentCount
	IntentList
	IntentBusinessInfo
)

func (i Intent) String() string {
	switch i {
	case IntentCount:
		return "count"
	case IntentList:
		return "list"
	case IntentBusinessInfo:
		return "business_info"
	default:
		return "out_of_scope"
	}
}
