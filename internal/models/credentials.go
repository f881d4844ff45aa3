package models

// APICredentials — ключи Bitget одного юзера.
type APICredentials struct {
	Key        string `json:"key"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}
