package functions

import (
	"math"

	"caliper/internal/value"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// greatCircleDistance(lat1, lon1, lat2, lon2) computes the haversine
// distance in kilometers between two points given in degrees.
func registerGeo(r *Registry) {
	r.RegisterBuiltin(Func{
		Name: "greatCircleDistance",
		Spec: Spec{MinArgs: 4, MaxArgs: 4, Category: CategoryOther},
		Call: func(args []value.Value) (value.Value, error) {
			coords := make([]float64, 4)
			for i, arg := range args[:4] {
				n, err := value.ToNumber(arg)
				if err != nil {
					return value.Value{}, err
				}
				coords[i] = n * math.Pi / 180
			}
			lat1, lon1, lat2, lon2 := coords[0], coords[1], coords[2], coords[3]

			dLat := lat2 - lat1
			dLon := lon2 - lon1
			a := math.Sin(dLat/2)*math.Sin(dLat/2) +
				math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
			c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
			return value.Num(earthRadiusKm * c), nil
		},
	})
}
