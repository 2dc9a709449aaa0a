package certmodel

// WipePolicy is one of the three NIST SP 800-88 Rev.1 sanitization levels.
type WipePolicy string

const (
	PolicyClear   WipePolicy = "CLEAR"
	PolicyPurge   WipePolicy = "PURGE"
	PolicyDestroy WipePolicy = "DESTROY"
)

// WipeMethod is the concrete mechanism selected for a device+policy pair.
type WipeMethod string

const (
	MethodNVMeSanitizeCryptoErase WipeMethod = "nvme_sanitize_crypto_erase"
	MethodNVMeSanitizeBlockErase  WipeMethod = "nvme_sanitize_block_erase"
	MethodATASecureErase          WipeMethod = "ata_secure_erase"
	MethodOverwriteZero           WipeMethod = "overwrite_zero"
	MethodOverwriteRandomVerify   WipeMethod = "overwrite_random_verify"
)

// VerificationPlan describes how many sampled sectors/files will be checked.
type VerificationPlan struct {
	Samples int `json:"samples"`
}

// WipePlan is immutable once built: the chosen method graph for one device.
type WipePlan struct {
	Device       Device           `json:"device"`
	Policy       WipePolicy       `json:"policy"`
	MainMethod   WipeMethod       `json:"main_method"`
	HPADCOClear  bool             `json:"hpa_dco_clear"`
	Verification VerificationPlan `json:"verification"`
	Blocked      bool             `json:"blocked"`
	BlockReason  string           `json:"block_reason,omitempty"`
	// Degraded records whether a PURGE request fell back to an overwrite
	// method because no sanitize capability was available (spec §4.F).
	Degraded bool `json:"degraded"`
}

// DefaultVerificationSamples is the default number of LBAs sampled post-wipe.
const DefaultVerificationSamples = 128
