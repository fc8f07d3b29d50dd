package constants

// Catalog listing query parameters
const (
	QueryParamPageNumber = "pageNumber"
	QueryParamPageSize   = "pageSize"
	QueryParamOrderBy    = "orderBy"
	QueryParamSearchTerm = "searchTerm"
	QueryParamBrands     = "brands"
	QueryParamTypes      = "types"
)

// Route parameters
const (
	PathParamID = "id"
)
