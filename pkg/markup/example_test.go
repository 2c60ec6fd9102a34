package markup_test

import (
	"fmt"

	"github.com/jmylchreest/markmin/pkg/markup"
)

func ExampleMinify() {
	out, err := markup.Minify(`<!-- c --><div class="box"><p> Hello   world </p><pre> keep   this   </pre><br></div>`, nil)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: <div class="box"><p>Hello world</p><pre> keep   this   </pre><br/></div>
}

func ExampleConfig_keepMarkers() {
	cfg := markup.DefaultConfig()
	cfg.KeepMarkers = []string{"license"}

	out, _ := markup.Minify("<!-- license: MIT -->\n<!-- build 42 -->\n<p>x</p>", cfg)
	fmt.Println(out)
	// Output: <!-- license: MIT --><p>x</p>
}
