package user

import (
	"errors"
	"time"

	"github.com/arjunkh87/bizdash/internal/domain/category"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrMissingID       = errors.New("user id is required")
	ErrUnknownCategory = errors.New("unknown business category")
)

// User is one merchant document in the users collection. The document
// key is the provider uid, so ID is never serialized into the body.
type User struct {
	ID           string       `json:"id" firestore:"-"`
	Name         string       `json:"name" firestore:"name"`
	Email        string       `json:"email" firestore:"email"`
	Phone        string       `json:"phone,omitempty" firestore:"phone,omitempty"`
	BusinessName string       `json:"businessName,omitempty" firestore:"businessName,omitempty"`
	CategoryID   string       `json:"categoryId,omitempty" firestore:"categoryId,omitempty"`
	BankAccount  *BankAccount `json:"bankAccount,omitempty" firestore:"bankAccount,omitempty"`
	CreatedAt    time.Time    `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt" firestore:"updatedAt"`
}

// BankAccount keeps the partner's opaque reference after a successful
// link, never real account numbers.
type BankAccount struct {
	Provider  string    `json:"provider" firestore:"provider"`
	Reference string    `json:"reference" firestore:"reference"`
	LinkedAt  time.Time `json:"linkedAt" firestore:"linkedAt"`
}

// with pointers if optional, nil means leave the stored value alone
type Patch struct {
	ID           string
	Name         *string
	Email        *string
	Phone        *string
	BusinessName *string
	CategoryID   *string
	BankAccount  *BankAccount
}

func (p Patch) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if p.CategoryID != nil && *p.CategoryID != "" && !category.IsValid(*p.CategoryID) {
		return ErrUnknownCategory
	}
	return nil
}

// Apply copies the set fields onto u. Timestamps are the store's job.
func (p Patch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.BusinessName != nil {
		u.BusinessName = *p.BusinessName
	}
	if p.CategoryID != nil {
		u.CategoryID = *p.CategoryID
	}
	if p.BankAccount != nil {
		acct := *p.BankAccount
		u.BankAccount = &acct
	}
}

// IsZero reports whether the patch carries nothing besides the id.
func (p Patch) IsZero() bool {
	return p.Name == nil &&
		p.Email == nil &&
		p.Phone == nil &&
		p.BusinessName == nil &&
		p.CategoryID == nil &&
		p.BankAccount == nil
}

type UpdateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=120"`
	Phone        *string `json:"phone" binding:"omitempty,e164"`
	BusinessName *string `json:"businessName" binding:"omitempty,min=1,max=160"`
	CategoryID   *string `json:"categoryId" binding:"omitempty,max=40"`
}

// ToPatch pins the request onto the authenticated uid. Email is absent
// on purpose, it only changes through the identity provider.
func (r UpdateProfileRequest) ToPatch(uid string) Patch {
	return Patch{
		ID:           uid,
		Name:         r.Name,
		Phone:        r.Phone,
		BusinessName: r.BusinessName,
		CategoryID:   r.CategoryID,
	}
}
