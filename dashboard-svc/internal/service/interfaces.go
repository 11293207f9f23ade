package service

import (
	"context"
	"io"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/session"
)

type OrderServiceInterface interface {
	List(ctx context.Context, id session.Identity, filter domain.OrderFilter) ([]domain.Order, error)
	Get(ctx context.Context, id session.Identity, orderID int) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id session.Identity, orderID int, to domain.OrderStatus) (*domain.Order, error)
	QRCode(ctx context.Context, id session.Identity, orderID int) ([]byte, error)
}

type MenuServiceInterface interface {
	List(ctx context.Context, id session.Identity, filter domain.MenuFilter) ([]domain.MenuItem, error)
	Create(ctx context.Context, id session.Identity, input domain.MenuInput, image *Upload) (*domain.MenuItem, error)
	Update(ctx context.Context, id session.Identity, menuID int, input domain.MenuInput, image *Upload) (*domain.MenuItem, error)
	Delete(ctx context.Context, id session.Identity, menuID int) error
	ToggleAvailability(ctx context.Context, id session.Identity, menuID int) (bool, error)
}

type RestaurantServiceInterface interface {
	Get(ctx context.Context, id session.Identity) (*domain.Restaurant, error)
	UpdateProfile(ctx context.Context, id session.Identity, title, subtitle string, image *Upload) (*domain.Restaurant, error)
	SetOpen(ctx context.Context, id session.Identity, open bool) (*domain.Restaurant, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, reg domain.Registration, image *Upload) (*domain.Restaurant, error)
	SignIn(ctx context.Context, email, password string) (*Token, error)
	SignOut(ctx context.Context, claims *session.Claims) error
	Refresh(ctx context.Context, claims *session.Claims) (*Token, error)
	ChangePassword(ctx context.Context, claims *session.Claims, password, confirm string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, password, confirm string) error
}

type OrderRepository interface {
	ListOrders(ctx context.Context, restaurantID int, filter domain.OrderFilter) ([]domain.Order, error)
	GetOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error)
	// WithinTx runs fn in one database transaction, committing only when fn
	// returns nil.
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error
}

type CoinStore interface {
	// IncrementCoins adds delta to the customer's balance and returns the new
	// balance, or ErrCustomerNotFound.
	IncrementCoins(ctx context.Context, customerID string, delta int) (int, error)
}

type OrderTx interface {
	CoinStore
	LockOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, from, to domain.OrderStatus) (int64, error)
}

type OrderCache interface {
	Version(ctx context.Context, restaurantID int) (int64, error)
	Orders(ctx context.Context, restaurantID int) ([]domain.Order, bool, error)
	// StoreOrders returns false when the version moved since it was read.
	StoreOrders(ctx context.Context, restaurantID int, version int64, orders []domain.Order) (bool, error)
	PatchStatus(ctx context.Context, restaurantID, orderID int, status domain.OrderStatus) error
}

type StatusPublisher interface {
	PublishStatusChange(ctx context.Context, event domain.StatusEvent) error
}

type MenuRepository interface {
	ListMenus(ctx context.Context, restaurantID int, filter domain.MenuFilter) ([]domain.MenuItem, error)
	GetMenu(ctx context.Context, menuID int) (*domain.MenuItem, error)
	CreateMenu(ctx context.Context, item *domain.MenuItem) error
	UpdateMenu(ctx context.Context, item *domain.MenuItem) error
	DeleteMenu(ctx context.Context, restaurantID, menuID int) (int64, error)
	ToggleAvailability(ctx context.Context, restaurantID, menuID int) (bool, error)
}

type RestaurantRepository interface {
	GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error)
	UpdateProfile(ctx context.Context, rest *domain.Restaurant) error
	SetOpen(ctx context.Context, restaurantID int, open bool) error
}

type AccountRepository interface {
	CreateOwnerWithRestaurant(ctx context.Context, owner *domain.Owner, rest *domain.Restaurant) error
	OwnerByEmail(ctx context.Context, email string) (*domain.Owner, error)
	UpdatePassword(ctx context.Context, ownerID, passwordHash string) error
}

// Upload is an image submitted with a form.
type Upload struct {
	Reader      io.Reader
	ContentType string
	Filename    string
}

type ImageStore interface {
	// Save stores the image under folder and returns its public reference.
	Save(ctx context.Context, folder string, upload *Upload) (string, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, claims *session.Claims) error
	RevokeAll(ctx context.Context, accountID string, at time.Time, maxTokenTTL time.Duration) error
}

type IdentityInvalidator interface {
	Invalidate(ctx context.Context, accountID string) error
}

type OTPStore interface {
	SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error
	// OTP returns "" when no code is pending.
	OTP(ctx context.Context, email string) (string, error)
	DeleteOTP(ctx context.Context, email string) error
}

type OTPSender interface {
	SendRecoveryCode(ctx context.Context, email, code string) error
}

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

var (
	_ OrderServiceInterface      = (*OrderService)(nil)
	_ MenuServiceInterface       = (*MenuService)(nil)
	_ RestaurantServiceInterface = (*RestaurantService)(nil)
	_ AuthServiceInterface       = (*AuthService)(nil)
	_ IdentityInvalidator        = (*session.Resolver)(nil)
)
