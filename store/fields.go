package store

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

// Fields maps column names to the values written by an insert or update.
// Dates must be supplied as time.Time and absent nullable values as nil.
type Fields map[string]any

// Optional tags a patch attribute as present or absent.
// For nullable attributes use Optional[*T]: present with a nil value clears the column.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the attribute was supplied.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Value returns the value, or the zero value when absent.
func (o Optional[T]) Value() T {
	return o.value
}

// UnmarshalJSON marks the attribute as present. It is only called for keys present in the payload,
// which is what separates "omitted" from "explicitly null".
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.value = zero

		return nil
	}

	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &o.value)
}

// MarshalJSON encodes the value, or null when absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}

	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(o.value)
}

// nullable converts an optional pointer into a column value.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}

	return *p
}

func nullableDate(d *Date) any {
	if d == nil {
		return nil
	}

	return d.Time
}

/***** Patches *****/

// MemberPatch carries the member attributes an update overwrites. Absent attributes keep their value.
type MemberPatch struct {
	FirstName Optional[string]  `json:"first_name"`
	LastName  Optional[string]  `json:"last_name"`
	Email     Optional[string]  `json:"email"`
	Phone     Optional[*string] `json:"phone"`
	JoinDate  Optional[Date]    `json:"join_date"`
}

// Fields returns the column values of the present attributes.
func (p MemberPatch) Fields() Fields {
	f := Fields{}

	if v, ok := p.FirstName.Get(); ok {
		f[ColFirstName] = v
	}

	if v, ok := p.LastName.Get(); ok {
		f[ColLastName] = v
	}

	if v, ok := p.Email.Get(); ok {
		f[ColEmail] = v
	}

	if v, ok := p.Phone.Get(); ok {
		f[ColPhone] = nullable(v)
	}

	if v, ok := p.JoinDate.Get(); ok {
		f[ColJoinDate] = v.Time
	}

	return f
}

// BookPatch carries the book attributes an update overwrites.
type BookPatch struct {
	Title           Optional[string] `json:"title"`
	ISBN            Optional[string] `json:"isbn"`
	PublishedYear   Optional[*int]   `json:"published_year"`
	CategoryID      Optional[*int64] `json:"category_id"`
	CopiesAvailable Optional[int]    `json:"copies_available"`
}

// Fields returns the column values of the present attributes.
func (p BookPatch) Fields() Fields {
	f := Fields{}

	if v, ok := p.Title.Get(); ok {
		f[ColTitle] = v
	}

	if v, ok := p.ISBN.Get(); ok {
		f[ColISBN] = v
	}

	if v, ok := p.PublishedYear.Get(); ok {
		f[ColPublishedYear] = nullable(v)
	}

	if v, ok := p.CategoryID.Get(); ok {
		f[ColCategoryID] = nullable(v)
	}

	if v, ok := p.CopiesAvailable.Get(); ok {
		f[ColCopiesAvailable] = v
	}

	return f
}

// CategoryPatch carries the category attributes an update overwrites.
type CategoryPatch struct {
	Name Optional[string] `json:"category_name"`
}

// Fields returns the column values of the present attributes.
func (p CategoryPatch) Fields() Fields {
	f := Fields{}

	if v, ok := p.Name.Get(); ok {
		f[ColCategoryName] = v
	}

	return f
}

// AuthorPatch carries the author attributes an update overwrites.
type AuthorPatch struct {
	FirstName Optional[string] `json:"first_name"`
	LastName  Optional[string] `json:"last_name"`
}

// Fields returns the column values of the present attributes.
func (p AuthorPatch) Fields() Fields {
	f := Fields{}

	if v, ok := p.FirstName.Get(); ok {
		f[ColFirstName] = v
	}

	if v, ok := p.LastName.Get(); ok {
		f[ColLastName] = v
	}

	return f
}

/***** Insert values *****/

// Fields returns the insert values of a new member. The identifier is ignored.
func (m Member) Fields() Fields {
	return Fields{
		ColFirstName: m.FirstName,
		ColLastName:  m.LastName,
		ColEmail:     m.Email,
		ColPhone:     nullable(m.Phone),
		ColJoinDate:  m.JoinDate.Time,
	}
}

// Fields returns the insert values of a new category.
func (c Category) Fields() Fields {
	return Fields{ColCategoryName: c.Name}
}

// Fields returns the insert values of a new book.
func (b Book) Fields() Fields {
	return Fields{
		ColTitle:           b.Title,
		ColISBN:            b.ISBN,
		ColPublishedYear:   nullable(b.PublishedYear),
		ColCategoryID:      nullable(b.CategoryID),
		ColCopiesAvailable: b.CopiesAvailable,
	}
}

// Fields returns the insert values of a new author.
func (a Author) Fields() Fields {
	return Fields{ColFirstName: a.FirstName, ColLastName: a.LastName}
}

// Fields returns the insert values of a new book-author link.
func (ba BookAuthor) Fields() Fields {
	return Fields{ColBookID: ba.BookID, ColAuthorID: ba.AuthorID}
}

// Fields returns the insert values of a new loan.
func (l Loan) Fields() Fields {
	return Fields{
		ColMemberID:   l.MemberID,
		ColBookID:     l.BookID,
		ColLoanDate:   l.LoanDate.Time,
		ColDueDate:    l.DueDate.Time,
		ColReturnDate: nullableDate(l.ReturnDate),
	}
}

/***** Applying patches *****/

// Apply overwrites the attributes present in p.
func (m *Member) Apply(p MemberPatch) {
	if v, ok := p.FirstName.Get(); ok {
		m.FirstName = v
	}

	if v, ok := p.LastName.Get(); ok {
		m.LastName = v
	}

	if v, ok := p.Email.Get(); ok {
		m.Email = v
	}

	if v, ok := p.Phone.Get(); ok {
		m.Phone = v
	}

	if v, ok := p.JoinDate.Get(); ok {
		m.JoinDate = v
	}
}

// Apply overwrites the attributes present in p.
func (b *Book) Apply(p BookPatch) {
	if v, ok := p.Title.Get(); ok {
		b.Title = v
	}

	if v, ok := p.ISBN.Get(); ok {
		b.ISBN = v
	}

	if v, ok := p.PublishedYear.Get(); ok {
		b.PublishedYear = v
	}

	if v, ok := p.CategoryID.Get(); ok {
		b.CategoryID = v
	}

	if v, ok := p.CopiesAvailable.Get(); ok {
		b.CopiesAvailable = v
	}
}

// Apply overwrites the attributes present in p.
func (c *Category) Apply(p CategoryPatch) {
	if v, ok := p.Name.Get(); ok {
		c.Name = v
	}
}

// Apply overwrites the attributes present in p.
func (a *Author) Apply(p AuthorPatch) {
	if v, ok := p.FirstName.Get(); ok {
		a.FirstName = v
	}

	if v, ok := p.LastName.Get(); ok {
		a.LastName = v
	}
}
