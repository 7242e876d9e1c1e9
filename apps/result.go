package apps

// CommandResult bypasses the JSON envelope: the router writes ContentType and
// Content to the HTTP response verbatim. Used for binary responses such as
// images.
type CommandResult struct {
	ContentType string
	Content     []byte
}

// CredentialsCheckResult is the outcome of validating a user's credentials in
// the "credentials" user auth mode. It is a tagged value: invalid, valid with
// nothing to persist, or valid with data the platform should save and
// resupply as AuthSavedData.
type CredentialsCheckResult struct {
	valid     bool
	savedData interface{}
}

func InvalidCredentials() CredentialsCheckResult {
	return CredentialsCheckResult{}
}

func ValidCredentials() CredentialsCheckResult {
	return CredentialsCheckResult{valid: true}
}

func ValidCredentialsWithData(dataToSave interface{}) CredentialsCheckResult {
	return CredentialsCheckResult{valid: true, savedData: dataToSave}
}

func (r CredentialsCheckResult) Valid() bool {
	return r.valid
}

// SavedData returns the data to persist and whether there is any.
func (r CredentialsCheckResult) SavedData() (interface{}, bool) {
	return r.savedData, r.valid && r.savedData != nil
}

// BeginAuthenticateUserOutput is the application's answer to
// begin_authenticate_user in the "web" user auth mode.
type BeginAuthenticateUserOutput struct {
	// AuthenticationURL is the provider URL the user's browser is sent to.
	AuthenticationURL string `json:"authentication_url"`

	// TempDataToSave is retained by the platform until the handshake's end
	// phase and passed back verbatim. Arrays and objects leave the server
	// as a JSON string.
	TempDataToSave interface{} `json:"temp_data_to_save,omitempty"`
}

// EndAuthenticateUserOutput is the application's answer to
// end_authenticate_user.
type EndAuthenticateUserOutput struct {
	ValidCredentials bool `json:"valid_credentials"`

	// UserID must be a non-empty scalar whenever ValidCredentials is true.
	// It is typed loosely so the dispatch engine can detect a provider
	// returning a non-scalar and report the contract violation.
	UserID interface{} `json:"user_id,omitempty"`

	AuthDataToSave interface{} `json:"auth_data_to_save,omitempty"`
}
