package formatter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatJava(t *testing.T, code string) string {
	t.Helper()
	out, err := NewJavaFormatter().Format(context.Background(), code)
	require.NoError(t, err)
	return out
}

func TestJavaFormatter_TestNGClass(t *testing.T) {
	in := `package com.example;import org.testng.annotations.Test;import org.testng.Assert;` +
		`public class LoginTest{private WebDriver driver;@Test public void login(){` +
		`driver.get("https://example.com/login");if(driver.getTitle().isEmpty()){Assert.fail("no title");}` +
		`else{Assert.assertTrue(true);}}}`

	want := `package com.example;

import org.testng.annotations.Test;
import org.testng.Assert;

public class LoginTest {
    private WebDriver driver;

    @Test
    public void login() {
        driver.get("https://example.com/login");
        if (driver.getTitle().isEmpty()) {
            Assert.fail("no title");
        } else {
            Assert.assertTrue(true);
        }
    }
}
`
	got := formatJava(t, in)
	assert.Equal(t, want, got)

	// formatting is stable
	assert.Equal(t, want, formatJava(t, got))
}

func TestJavaFormatter_LoopsGenericsLambdas(t *testing.T) {
	in := `class A{void b(){List<String> names=new ArrayList<>();for(int i=0;i<3;i++){names.add("n"+i);}` +
		`names.forEach(n->{System.out.println(n);});}}`

	want := `class A {
    void b() {
        List<String> names = new ArrayList<>();
        for (int i = 0; i < 3; i++) {
            names.add("n" + i);
        }
        names.forEach(n -> {
            System.out.println(n);
        });
    }
}
`
	assert.Equal(t, want, formatJava(t, in))
}

func TestJavaFormatter_Comments(t *testing.T) {
	in := "class A{int x=1; // one\nint y;/** Logs in. */void login(){}}"

	want := `class A {
    int x = 1; // one
    int y;

    /** Logs in. */
    void login() {
    }
}
`
	assert.Equal(t, want, formatJava(t, in))
}

func TestJavaFormatter_AnnotationWithArguments(t *testing.T) {
	in := `class A{@Test(priority=1) public void b(){}}`

	want := `class A {
    @Test(priority = 1)
    public void b() {
    }
}
`
	assert.Equal(t, want, formatJava(t, in))
}

func TestJavaFormatter_StringsKeepTheirContent(t *testing.T) {
	in := `class A{String s="a;{b}";}`

	assert.Equal(t, "class A {\n    String s = \"a;{b}\";\n}\n", formatJava(t, in))
}

func TestJavaFormatter_Switch(t *testing.T) {
	in := `class A{void b(int x){int y;switch(x){case 1:y=2;break;case 2:case 3:y=3;break;default:y=0;}}}`

	want := `class A {
    void b(int x) {
        int y;
        switch (x) {
            case 1:
                y = 2;
                break;
            case 2:
            case 3:
                y = 3;
                break;
            default:
                y = 0;
        }
    }
}
`
	got := formatJava(t, in)
	assert.Equal(t, want, got)
	assert.Equal(t, want, formatJava(t, got))
}

func TestJavaFormatter_GenericMethodCall(t *testing.T) {
	in := `class A{void b(){List<String> l=this.<String>foo();}}`

	want := `class A {
    void b() {
        List<String> l = this.<String>foo();
    }
}
`
	assert.Equal(t, want, formatJava(t, in))
}

func TestJavaFormatter_SyntaxError(t *testing.T) {
	_, err := NewJavaFormatter().Format(context.Background(), "public class A {\n void b( { }")

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Positive(t, syntaxErr.Line)
}

func TestClassName(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"public class wins", "package x;\nclass Helper {}\npublic class LoginTest {}", "LoginTest"},
		{"first class", "class Only {}", "Only"},
		{"broken source", "this is class Foo maybe", "Foo"},
		{"no type", "no types here", DefaultClassName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassName(tt.code))
		})
	}
	assert.Equal(t, "LoginTest.java", FileName("public class LoginTest {}"))
	assert.Equal(t, "GeneratedTest.java", FileName(""))
}
