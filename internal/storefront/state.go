package storefront

type Modal int

const (
	ModalNone Modal = iota
	ModalProduct
	ModalCart
)

func (m Modal) String() string {
	switch m {
	case ModalProduct:
		return "product"
	case ModalCart:
		return "cart"
	default:
		return "none"
	}
}

// State is everything about a session that is not catalog or cart data.
type State struct {
	Filter    string
	Modal     Modal
	ProductID string
	Toast     bool
	Notice    string
	Redirect  string
}

const (
	ToastMessage         = "Added to cart"
	EmptyCartMessage     = "Your cart is currently empty."
	EmptyCheckoutNotice  = "Your cart is empty!"
	InvalidVariantNotice = "Please choose an available color and size."
)
