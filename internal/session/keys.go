package session

// Storage keys of the per-device namespace.
const (
	keyLoggedIn          = "isLoggedIn"
	keyGuestPreserved    = "isGuestWithPreservedData"
	keyCustomerID        = "customerId"
	keyName              = "name"
	keyEmail             = "email"
	keyPhone             = "phone"
	keyCurrency          = "currency"
	keyLanguage          = "language"
	keyLanguageCode      = "languageCode"
	keyFavListID         = "favListId"
	keyCartListID        = "cartListId"
	keyOnboardingSeen    = "onboardingSeen"
	keyLoginSkipped      = "loginSkipped"
	keyGuestFavListID    = "guest_favListId"
	keyGuestCartListID   = "guest_cartListId"
	keyGuestCurrency     = "guest_currency"
	keyGuestLanguage     = "guest_language"
	keyGuestLanguageCode = "guest_languageCode"
)

// Defaults applied to a fresh device.
const (
	DefaultCurrency     = "USD"
	DefaultLanguage     = "English"
	DefaultLanguageCode = "en"
)

var guestKeys = []string{
	keyGuestFavListID,
	keyGuestCartListID,
	keyGuestCurrency,
	keyGuestLanguage,
	keyGuestLanguageCode,
}

var identityKeys = []string{keyCustomerID, keyName, keyEmail, keyPhone}
