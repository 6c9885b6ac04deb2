package nlquery

import (
	"reflect"
	"testing"
)

func TestBuildVehicleFilterCompound(t *testing.T) {
	filter := BuildVehicleFilter("red explorer")

	if !reflect.DeepEqual(filter.Colors, []string{"red"}) {
		t.Fatalf("colors: got %v", filter.Colors)
	}
	if !reflect.DeepEqual(filter.Terms, []string{"explorer"}) {
		t.Fatalf("terms: got %v", filter.Terms)
	}
	if len(filter.BodyStyles) != 0 {
		t.Fatalf("body styles: got %v", filter.BodyStyles)
	}
	if filter.Limit != 20 {
		t.Fatalf("limit: got %d", filter.Limit)
	}
}

func TestBuildVehicleFilterStopWordsDropped(t *testing.T) {
	filter := BuildVehicleFilter("show me a black SUV please")

	if !reflect.DeepEqual(filter.Colors, []string{"black"}) {
		t.Fatalf("colors: got %v", filter.Colors)
	}
	if !reflect.DeepEqual(filter.BodyStyles, []string{"suv"}) {
		t.Fatalf("body styles: got %v", filter.BodyStyles)
	}
	if len(filter.Terms) != 0 {
		t.Fatalf("stop words leaked into terms: %v", filter.Terms)
	}
}

func TestBuildVehicleFilterSkipsNumbers(t *testing.T) {
	filter := BuildVehicleFilter("2022 ford f150 under 40000")

	if !reflect.DeepEqual(filter.Terms, []string{"ford", "f150", "under"}) {
		t.Fatalf("terms: got %v", filter.Terms)
	}
	if len(filter.Colors) != 0 || len(filter.BodyStyles) != 0 {
		t.Fatalf("unexpected attributes: %+v", filter)
	}
}

func TestBuildVehicleFilterEmptyInput(t *testing.T) {
	filter := BuildVehicleFilter("show me a car")
	if !filter.IsEmpty() {
		t.Fatalf("expected empty filter, got %+v", filter)
	}
}
