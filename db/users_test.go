package db

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSetUser(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	user := &User{
		Email:     testUserEmail,
		Password:  testUserPass,
		FirstName: "Jane",
		LastName:  "Driver",
		Role:      DriverRole,
	}
	id, err := db.SetUser(user)
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, uint64(1))

	// duplicated email must be rejected
	_, err = db.SetUser(&User{Email: testUserEmail, Password: "other", Role: RiderRole})
	c.Assert(err, qt.Equals, ErrAlreadyExists)

	// update an existing user
	user.StripeAccountID = "acct_test"
	_, err = db.SetUser(user)
	c.Assert(err, qt.IsNil)

	stored, err := db.User(id)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.StripeAccountID, qt.Equals, "acct_test")
	c.Assert(stored.CreatedAt.IsZero(), qt.IsFalse)
}

func TestUserByEmail(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	_, err := db.UserByEmail(testUserEmail)
	c.Assert(err, qt.Equals, ErrNotFound)

	_, err = db.SetUser(&User{Email: "Driver@Test.com", Password: testUserPass, Role: DriverRole})
	c.Assert(err, qt.IsNil)

	// emails are stored and matched lowercase
	user, err := db.UserByEmail(testUserEmail)
	c.Assert(err, qt.IsNil)
	c.Assert(user.Email, qt.Equals, testUserEmail)
}

func TestUserByStripeAccount(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	_, err := db.SetUser(&User{
		Email:           testUserEmail,
		Password:        testUserPass,
		Role:            DriverRole,
		StripeAccountID: "acct_123",
	})
	c.Assert(err, qt.IsNil)

	user, err := db.UserByStripeAccount("acct_123")
	c.Assert(err, qt.IsNil)
	c.Assert(user.Email, qt.Equals, testUserEmail)

	_, err = db.UserByStripeAccount("acct_missing")
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestDelUser(t *testing.T) {
	c := qt.New(t)
	defer resetDB(c)

	user := &User{Email: testUserEmail, Password: testUserPass, Role: RiderRole}
	id, err := db.SetUser(user)
	c.Assert(err, qt.IsNil)

	c.Assert(db.DelUser(user), qt.IsNil)
	_, err = db.User(id)
	c.Assert(err, qt.Equals, ErrNotFound)
}
