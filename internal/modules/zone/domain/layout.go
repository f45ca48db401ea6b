package domain

// CourseLayout is the reference race course: a scan area and three equal
// parking bays laid side by side along x.
func CourseLayout() (*Map, error) {
	scan, err := NewZone(Neutral, []Point{
		{X: 2.173, Y: -3.406}, {X: 2.173, Y: -2.768},
		{X: 3.416, Y: -2.768}, {X: 3.416, Y: -3.406},
	})
	if err != nil {
		return nil, err
	}

	const (
		dx      = 1.756
		dy      = 0.638
		offsetX = -0.372
		offsetY = -1.612
	)
	zones := []Zone{scan}
	for i, id := range []ID{Park1, Park2, Park3} {
		x0 := offsetX + float64(i)*dx/3
		x1 := offsetX + float64(i+1)*dx/3
		bay, err := NewZone(id, []Point{
			{X: x0, Y: offsetY}, {X: x0, Y: offsetY + dy},
			{X: x1, Y: offsetY + dy}, {X: x1, Y: offsetY},
		})
		if err != nil {
			return nil, err
		}
		zones = append(zones, bay)
	}
	return NewMap(zones...)
}
