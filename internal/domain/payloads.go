package domain

// AuthResponse is returned by login and register
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// MessageResponse is the body of message-only endpoints such as logout
type MessageResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Validate checks the fields that can be decided without the backend
func (r *RegisterRequest) Validate() error {
	if r.Password != r.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	return nil
}

type AddToCartRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// Validate validates the add to cart request
func (r *AddToCartRequest) Validate() error {
	if r.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method"`
}

type CategoryRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

// ProductForm is the multipart form of an admin product create or update
type ProductForm struct {
	CategoryID  *int
	Name        string
	Description string
	Price       int64
	Stock       int
	Image       *Upload
}

// Upload is a file attached to a multipart form
type Upload struct {
	Filename string
	Content  []byte
}

type UpdateOrderStatusRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status"`
}
