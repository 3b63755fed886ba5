// Package mocks provides testify mock implementations of the store
// interfaces for service and handler tests.
//
// Usage:
//
//	decks := new(mocks.DeckStore)
//	decks.On("GetByID", mock.Anything, deckID).Return(deck, nil)
//	defer decks.AssertExpectations(t)
//
// WithTx returns the mock itself unless an expectation says otherwise, so a
// service that rebinds its stores to a transaction keeps hitting the same
// expectations.
package mocks
