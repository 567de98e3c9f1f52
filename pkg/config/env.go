package config

const (
	EnvPrefix = "MARKETDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv             = "MARKETDESK_APP_ENV"
	EnvPort               = "MARKETDESK_APP_PORT"
	EnvLogLevel           = "MARKETDESK_LOG_LEVEL"
	EnvRecordStoreBaseURL = "MARKETDESK_RECORDSTORE_BASE_URL"
	EnvAppIDCategories    = "MARKETDESK_APP_ID_CATEGORIES"
	EnvAppIDSellers       = "MARKETDESK_APP_ID_SELLERS"
	EnvAppIDProducts      = "MARKETDESK_APP_ID_PRODUCTS"
	EnvAppIDOrders        = "MARKETDESK_APP_ID_ORDERS"
	EnvAIEndpoint         = "MARKETDESK_AI_ENDPOINT"
	EnvAIChatAttempts     = "MARKETDESK_AI_CHAT_ATTEMPTS"
	EnvScanEntities       = "MARKETDESK_SCAN_ENTITIES"
	EnvScanSuccess        = "MARKETDESK_SCAN_SUCCESS_DISPLAY"
	EnvRedisURL           = "MARKETDESK_REDIS_URL"
)

var appIDEnvVars = []string{
	EnvAppIDCategories,
	EnvAppIDSellers,
	EnvAppIDProducts,
	EnvAppIDOrders,
}
