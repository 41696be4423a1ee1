package db

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/tranvictor/ethbook/common"
)

// ContactDesc is one searchable contact entry: the display name plus the
// rendered Ethereum identity, flattened into a single match string.
type ContactDesc struct {
	ID   string
	Name string
	Eth  string
}

type FuzzySource []ContactDesc

func (self FuzzySource) Len() int {
	return len(self)
}

func (self FuzzySource) String(i int) string {
	return fmt.Sprintf("%s_%s", strings.Replace(self[i].Name, " ", "_", -1), self[i].Eth)
}

// NewFuzzySource flattens reconciled contacts into a fuzzy match source.
// The address takes the identity slot when both fields are populated.
func NewFuzzySource(contacts []common.Contact) FuzzySource {
	result := FuzzySource{}
	for _, c := range contacts {
		result = append(result, ContactDesc{
			ID:   c.ID,
			Name: c.DisplayName,
			Eth:  c.EthAddress.UnwrapOr(c.EnsName.UnwrapOr("")),
		})
	}
	return result
}

func getContactMatches(input string, source FuzzySource) ([]ContactDesc, []int) {
	matches := fuzzy.FindFrom(strings.Replace(input, " ", "_", -1), source)
	result := []ContactDesc{}
	scores := []int{}
	for i := 0; i < 10; i++ {
		if i < len(matches) {
			result = append(result, source[matches[i].Index])
			scores = append(scores, matches[i].Score)
		} else {
			break
		}
	}
	return result, scores
}

// GetContacts returns up to 10 contacts fuzzy-matching input, best first,
// with their match scores.
func GetContacts(input string, contacts []common.Contact) ([]ContactDesc, []int) {
	return getContactMatches(input, NewFuzzySource(contacts))
}

// GetContact returns the single best fuzzy match for input.
func GetContact(input string, contacts []common.Contact) (ContactDesc, error) {
	matches, _ := getContactMatches(input, NewFuzzySource(contacts))
	if len(matches) == 0 {
		return ContactDesc{}, fmt.Errorf("No contact is found with '%s'", input)
	}
	return matches[0], nil
}
