package algo

import (
	"sort"

	"github.com/huangsam/mri/schema"
)

// RankRoles returns the roles sorted by percentage in descending order,
// keeping observation order between equal roles. A limit of zero or less,
// or one larger than the number of roles, returns all of them. The input
// slice is left untouched.
func RankRoles(roles []schema.RoleScore, limit int) []schema.RoleScore {
	ranked := make([]schema.RoleScore, len(roles))
	copy(ranked, roles)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
