package query

import "github.com/AntonStoeckl/library-lending-go/store"

// BookDetails is a book together with its category and authors.
type BookDetails struct {
	store.Book
	Category *store.Category `json:"category"`
	Authors  []store.Author  `json:"authors"`
}

// LoanDetails is a loan together with the member and the book it refers to.
type LoanDetails struct {
	store.Loan
	Member store.Member `json:"member"`
	Book   store.Book   `json:"book"`
}
