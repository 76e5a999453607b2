package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/arjunkh87/bizdash/internal/domain/user"
	"github.com/arjunkh87/bizdash/internal/observability"
)

const usersCollection = "users"

type UsersRepo struct {
	client *firestore.Client
	prom   *observability.Prom
}

func NewUsersRepo(client *firestore.Client, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{client: client, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

func (r *UsersRepo) Get(ctx context.Context, id string) (user.User, error) {
	if id == "" {
		return user.User{}, user.ErrMissingID
	}

	var u user.User

	err := r.observe("users.get", func() error {
		snap, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return user.ErrNotFound
			}
			return fmt.Errorf("get user %s: %w", id, err)
		}

		if err := snap.DataTo(&u); err != nil {
			return fmt.Errorf("decode user %s: %w", id, err)
		}
		u.ID = snap.Ref.ID
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

// Upsert merge-writes the patch. Fields the patch does not carry keep
// their stored values, updatedAt is stamped by the server on every
// write and createdAt only on the first. The transaction keeps two
// racing first-writes from both claiming createdAt.
func (r *UsersRepo) Upsert(ctx context.Context, p user.Patch) (user.User, error) {
	if p.ID == "" {
		return user.User{}, user.ErrMissingID
	}

	ref := r.client.Collection(usersCollection).Doc(p.ID)

	err := r.observe("users.upsert", func() error {
		return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			_, err := tx.Get(ref)
			exists := true
			if err != nil {
				if status.Code(err) != codes.NotFound {
					return err
				}
				exists = false
			}

			data := patchData(p)
			data["updatedAt"] = firestore.ServerTimestamp
			if !exists {
				data["createdAt"] = firestore.ServerTimestamp
			}

			return tx.Set(ref, data, firestore.MergeAll)
		})
	})
	if err != nil {
		return user.User{}, fmt.Errorf("upsert user %s: %w", p.ID, err)
	}

	// read back so callers see the server-side timestamps
	return r.Get(ctx, p.ID)
}

func patchData(p user.Patch) map[string]any {
	data := map[string]any{}

	if p.Name != nil {
		data["name"] = *p.Name
	}
	if p.Email != nil {
		data["email"] = *p.Email
	}
	if p.Phone != nil {
		data["phone"] = *p.Phone
	}
	if p.BusinessName != nil {
		data["businessName"] = *p.BusinessName
	}
	if p.CategoryID != nil {
		data["categoryId"] = *p.CategoryID
	}
	if p.BankAccount != nil {
		data["bankAccount"] = map[string]any{
			"provider":  p.BankAccount.Provider,
			"reference": p.BankAccount.Reference,
			"linkedAt":  p.BankAccount.LinkedAt,
		}
	}

	return data
}
