package crawler

import (
	"fmt"
	"strconv"
	"strings"

	"alpenlodge/internal/geo"
	"alpenlodge/internal/models"
)

// QueryTimeoutSec is the server-side timeout requested in every query.
const QueryTimeoutSec = 60

var elementKinds = []string{models.KindNode, models.KindWay, models.KindRelation}

// BuildQuery builds one Overpass QL query selecting nodes, ways and relations
// tagged key=value for any of values within radiusKm of center. Ways and
// relations are returned with their center point.
func BuildQuery(center geo.Coordinate, radiusKm float64, key string, values []string) string {
	around := fmt.Sprintf("(around:%d,%s,%s)",
		int(radiusKm*1000),
		formatCoord(center.Lat),
		formatCoord(center.Lon),
	)

	var b strings.Builder

	fmt.Fprintf(&b, "[out:json][timeout:%d];(", QueryTimeoutSec)

	for _, v := range values {
		filter := fmt.Sprintf("[%s=%s]", quote(key), quote(v))
		for _, kind := range elementKinds {
			b.WriteString(kind)
			b.WriteString(around)
			b.WriteString(filter)
			b.WriteString(";")
		}
	}

	b.WriteString(");out center tags;")

	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quote renders s as an Overpass QL string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)

	return `"` + r.Replace(s) + `"`
}
